package ethereum

// artisanRights1155ABI is the subset of the ArtisanRights1155 contract used by the service
const artisanRights1155ABI = `[
  {"type":"function","name":"mintCoA","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"sku","type":"uint256"},{"name":"tokenURI","type":"string"},{"name":"royaltyBps","type":"uint96"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"mintRights","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"sku","type":"uint256"},{"name":"tokenURI","type":"string"},{"name":"amount","type":"uint256"},{"name":"royaltyBps","type":"uint96"}],"outputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"function","name":"bindLicense","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"licenseCid","type":"string"}],"outputs":[]},
  {"type":"function","name":"recordProvenanceNote","stateMutability":"nonpayable","inputs":[{"name":"tokenId","type":"uint256"},{"name":"ref","type":"string"}],"outputs":[]},
  {"type":"function","name":"uri","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"type":"function","name":"exists","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"totalSupply","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"type":"function","name":"royaltyInfo","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"},{"name":"salePrice","type":"uint256"}],"outputs":[{"name":"receiver","type":"address"},{"name":"royaltyAmount","type":"uint256"}]},
  {"type":"error","name":"TokenAlreadyExists","inputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"error","name":"TokenDoesNotExist","inputs":[{"name":"tokenId","type":"uint256"}]},
  {"type":"error","name":"InvalidRoyalty","inputs":[{"name":"royaltyBps","type":"uint96"}]},
  {"type":"error","name":"InvalidRecipient","inputs":[{"name":"to","type":"address"}]},
  {"type":"error","name":"InvalidAmount","inputs":[]}
]`
